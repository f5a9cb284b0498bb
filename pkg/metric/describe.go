package metric

import "fmt"

// Describe returns how the pipeline computed the metric behind a category
func Describe(category Category, opts Options) string {
	switch category {
	case CategoryAccuracy:
		d := opts.Distance
		return fmt.Sprintf("Accuracy represents the proportion of predictions that are within %d cm of the real coordinates. "+
			"It is calculated as the fraction of distances (dist_to_real_coord) that are less than or equal to %d cm, "+
			"normalized by the total number of predictions. Specifically: \n"+
			"Accuracy = (Number of distances <= %d) / Total Number of Predictions.", d, d, d)
	case CategoryBeamformingMaxima:
		return "Beamforming Maxima measures the Euclidean distance between the real coordinates (real_x, real_y, real_z) " +
			"and the maximum of the beamforming output (beamforming_max_x, beamforming_max_y, beamforming_max_z). " +
			"It is computed as: \n" +
			"Beamforming Maxima = sqrt((real_x - beamforming_max_x)^2 + (real_y - beamforming_max_y)^2 + (real_z - beamforming_max_z)^2)."
	case CategoryInterquartileRange:
		return "The Interquartile Range (IQR) is the difference between the 75th and 25th percentiles of the distances " +
			"to the real coordinates (dist_to_real_coord). It is computed as: \n" +
			"IQR = 75th Percentile - 25th Percentile."
	case CategoryMeanAbsoluteError:
		return "The Mean Absolute Error (MAE) is the average of the absolute differences between the estimated coordinates " +
			"and the real coordinates. For 3D coordinates, it is computed as: \n" +
			"MAE = (|avg_x_t - real_x| + |avg_y_t - real_y| + |avg_z_t - real_z|) / 3."
	case CategoryMeanDifference:
		a := opts.Axis
		return fmt.Sprintf("Mean Difference along the %s-axis represents the average absolute difference between the estimated "+
			"and real values along the %s-axis. It is calculated as: \n"+
			"Mean Difference = Mean(|avg_%s_t - real_%s|).", a, a, a, a)
	case CategoryMeanDistance:
		return "Mean Distance is the average Euclidean distance between the estimated coordinates " +
			"and the real coordinates. It is computed as: \n" +
			"Mean Distance = Mean(sqrt((avg_x_t - real_x)^2 + (avg_y_t - real_y)^2 + (avg_z_t - real_z)^2))."
	case CategoryMedianDistance:
		return "Median Distance is the median of the Euclidean distances between the estimated coordinates " +
			"and the real coordinates. The distance is calculated as: \n" +
			"d = sqrt((avg_x_t - real_x)^2 + (avg_y_t - real_y)^2 + (avg_z_t - real_z)^2)."
	case CategoryStandardDeviation:
		return "Standard Deviation measures the spread of the estimated coordinates around the real coordinates. " +
			"It is computed as the average of the standard deviations along all axes: \n" +
			"Standard Deviation = (std_x + std_y + std_z) / 3."
	}
	return "No description available for this category."
}
